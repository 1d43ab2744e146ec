package capture

import (
	"bytes"
	"runtime"
	"strings"
)

// frameInfo reports the file, line, and bare function name of the frame
// skip levels up the stack.
func frameInfo(skip int) (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "?", 0, "?"
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return file, line, "?"
	}

	return file, line, bareFuncName(fn.Name())
}

// bareFuncName strips the package path and package name from a fully
// qualified function name, keeping method receivers. "main.fib" becomes
// "fib", "pkg/sub.(*T).Run" becomes "(*T).Run".
func bareFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}

	return name
}

// goroutineID extracts the numeric goroutine identifier from the stack
// header written by runtime.Stack ("goroutine 18 [running]:").
func goroutineID() string {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)

	s := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}

	return string(s)
}
