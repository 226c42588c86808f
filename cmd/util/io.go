package util

import (
	"os"
)

func OpenFile(path string) *os.File {
	f, err := os.Open(path)
	Assert(err, "Could not open file '%s'", path)
	return f
}

func CreateFile(path string) *os.File {
	f, err := os.Create(path)
	Assert(err, "Could not create file '%s'", path)
	return f
}

func CloseFile(f *os.File) {
	Assert(f.Close(), "Could not close file '%s'", f.Name())
}
