// Copyright ©2019 The Gonum Authors. All rights reserved.
// Copyright ©2024 The GUDA Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complexmul

import (
	"fmt"
	"runtime/debug"
)

const root = "github.com/LynnColeArt/guda-complexmul"

// Version reports the complexmul release a binary was built against, as
// printed by "complexmul version". Builds of this module itself report
// empty strings, which the command shows as "(devel)".
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return moduleVersion(b.Deps)
}

// moduleVersion finds this module among deps. A replaced module is shown as
// "old=>new" with the replacement's checksum.
func moduleVersion(deps []*debug.Module) (version, sum string) {
	for _, m := range deps {
		if m.Path != root {
			continue
		}
		if r := m.Replace; r != nil {
			switch {
			case r.Version != "" && r.Path != "":
				return fmt.Sprintf("%s=>%s %s", m.Version, r.Path, r.Version), r.Sum
			case r.Version != "":
				return fmt.Sprintf("%s=>%s", m.Version, r.Version), r.Sum
			case r.Path != "":
				return fmt.Sprintf("%s=>%s", m.Version, r.Path), r.Sum
			default:
				return m.Version + "*", m.Sum + "*"
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
