package main

import (
	"runtime"
)

func init() {
	// Lock the main goroutine to the main OS thread.
	// Required for OpenCV's highgui (preview window creation).
	runtime.LockOSThread()
}

func main() {
	Execute()
}
