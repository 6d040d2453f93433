package tools

import (
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Logs a step banner, reporting the caller as the log origin
func LogOutput(val ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintln(val...))
}

// Logs how long the named step took. Meant to be deferred: defer TimeTrack(time.Now(), "step")
func TimeTrack(start time.Time, name string) {
	LogOutput(fmt.Sprintf("%s took %s", name, time.Since(start)))
}
