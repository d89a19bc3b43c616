package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetUpFromGoldenFileNamed creates a temp file based on the given golden file name.
// The file must exist in directory testdata/.
func SetUpFromGoldenFileNamed(t *testing.T, filename string) string {
	dir := SetUpFromGoldenFilesNamed(t, filename)
	return filepath.Join(dir, filename)
}

// SetUpFromGoldenFilesNamed copies the given golden files in the same temp directory.
// Useful for files that go in pairs like a source file and its rendered file.
func SetUpFromGoldenFilesNamed(t *testing.T, filenames ...string) string {
	dir := t.TempDir()

	for _, filename := range filenames {
		fileIn := filepath.Join("testdata", filename)
		stat, err := os.Lstat(fileIn)
		if err != nil {
			t.Fatal(err)
		}

		in, err := os.ReadFile(fileIn)
		if err != nil {
			t.Fatal(err)
		}

		fileOut := filepath.Join(dir, filename)
		err = os.WriteFile(fileOut, in, stat.Mode())
		if err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

// SetUpFromFileContent createa a temp file based on the given file content.
func SetUpFromFileContent(t *testing.T, filename string, content string) string {
	dir := t.TempDir()

	fileOut := filepath.Join(dir, filename)
	err := os.WriteFile(fileOut, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	return fileOut
}

// GoldenFileNamed reads the content of the given golden file.
func GoldenFileNamed(t *testing.T, filename string) []byte {
	path := filepath.Join("testdata", filename)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed reading golden file %s: %v", path, err)
	}
	return b
}
