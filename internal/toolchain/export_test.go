package toolchain

import "runtime"

func runtimeGOOS() string { return runtime.GOOS }
