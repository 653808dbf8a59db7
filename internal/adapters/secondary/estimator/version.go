package estimator

import "runtime/debug"

// moduleVersion reports "<name> <version>" of a dependency compiled into the binary.
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			if dep.Replace != nil {
				dep = dep.Replace
			}
			return path + " " + dep.Version
		}
	}
	return "unknown"
}
