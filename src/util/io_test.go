package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceMissingPath(t *testing.T) {
	if _, err := ReadSource(Options{}); err == nil {
		t.Fatal("expected error for empty Src")
	}
}

func TestReadSourceReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "root.tabi")
	if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadSource(Options{Src: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "content" {
		t.Fatalf("ReadSource = %q, want content", got)
	}
}

func TestPreprocessNoCommands(t *testing.T) {
	got, err := Preprocess("plain source, no embedded commands", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "plain source, no embedded commands" {
		t.Fatalf("Preprocess changed unmarked source: %q", got)
	}
}

func TestPreprocessUnterminatedCommand(t *testing.T) {
	if _, err := Preprocess("before ##cat", t.TempDir()); err == nil {
		t.Fatal("expected error for unterminated command delimiter")
	}
}

func TestPreprocessUnterminatedBlock(t *testing.T) {
	if _, err := Preprocess("before ##cat## payload unterminated", t.TempDir()); err == nil {
		t.Fatal("expected error for unterminated block delimiter")
	}
}

func TestPreprocessRunsCommand(t *testing.T) {
	dir := t.TempDir()
	srcScratch := filepath.Join(dir, "tabic_pre.src")
	dstScratch := filepath.Join(dir, "tabic_pre.dst")
	src := "before ##cp " + srcScratch + " " + dstScratch + "##hello##after"
	got, err := Preprocess(src, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "before helloafter"
	if got != want {
		t.Fatalf("Preprocess = %q, want %q", got, want)
	}
}
