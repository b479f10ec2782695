package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the project root so the logger and file databases land in
	// one place no matter which package is under test
	//
	//   in some_test.go,
	//   import (
	//     _ "liyu1981.xyz/greenhouse-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	if err := os.Chdir(dir); err != nil {
		panic(err)
	}
}
