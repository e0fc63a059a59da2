// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package complexmul multiplies large sequences of complex numbers on a
// parallel device and verifies the result against a sequential reference.
//
// Devices come from a Platform. The host platform exposes a goroutine-backed
// CPU device and, where the processor has a SIMD path, a vector engine of
// accelerator class. A ranking policy scores each device and SelectDevice
// keeps the best one:
//
//	p := complexmul.NewHostPlatform()
//	q, err := complexmul.NewQueue(p, complexmul.VendorRanker("GUDA"))
//	if err != nil {
//		return err
//	}
//	defer q.Close()
//
//	if err := complexmul.ParallelMultiply(q, a, b, out); err != nil {
//		return err
//	}
//	_ = complexmul.ScalarMultiply(a, b, ref)
//	fmt.Println(complexmul.Compare(complexmul.Vector(out), complexmul.Vector(ref)))
//
// Work reaches a device through Queue.Submit. The command group declares
// every buffer it touches as read-only, write-only or read-write and gets
// back an accessor that only permits that use. Event.Wait is the completion
// barrier: when it returns nil every index has run and write-only buffers
// are back in host memory; when a kernel faults, Wait returns the fault and
// no buffer is written back.
package complexmul
