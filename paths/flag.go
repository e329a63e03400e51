package paths

import (
	"flag"
	"fmt"
)

// SetupFilePathFlag registers a string flag called flagName defaulting to
// wherever Find locates fileName. If Find comes up empty, so does the
// default, and the command has to insist on the flag being passed.
func SetupFilePathFlag(fileName, flagName string, flagPtr *string) {
	usage := fmt.Sprintf("Path to %s (default searched in $%s and the working directory)", fileName, EnvSearchPath)
	flag.StringVar(flagPtr, flagName, Find(fileName), usage)
}
