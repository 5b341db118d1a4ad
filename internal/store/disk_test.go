package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func newTestDisk(t *testing.T) *Disk {
	t.Helper()
	d, err := NewDisk(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	return d
}

func TestNewFilenameEmbedsDateAndTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 30, 0, 0, time.UTC)
	name, err := NewFilename("cat.JPG", now)
	if err != nil {
		t.Fatalf("NewFilename: %v", err)
	}
	want := "2026-08-28_" + "1787920200000" + ".jpg"
	if name != want {
		t.Fatalf("got %q, want %q", name, want)
	}
	date, uploaded, err := ParseFilename(name)
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if date != "2026-08-28" || !uploaded.Equal(now) {
		t.Fatalf("round trip gave %s %v", date, uploaded)
	}
}

func TestNewFilenameRejectsUnknownExtension(t *testing.T) {
	if _, err := NewFilename("payload.exe", time.Now()); err == nil {
		t.Fatal("exe should be rejected")
	}
	if _, err := NewFilename("noext", time.Now()); err == nil {
		t.Fatal("extensionless names should be rejected")
	}
}

func TestDiskSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)
	entry, err := d.Save(ctx, "photo.png", "image/png", strings.NewReader("fake-png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(entry.Path, "/uploads/"+entry.Date+"/") {
		t.Fatalf("public path %q should be date-partitioned", entry.Path)
	}

	rc, ct, err := d.Open(ctx, entry.Filename)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "fake-png" || ct != "image/png" {
		t.Fatalf("got %q (%s)", data, ct)
	}

	if err := d.Delete(ctx, entry.Filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := d.Delete(ctx, entry.Filename); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
	if _, _, err := d.Open(ctx, entry.Filename); !errors.Is(err, ErrNotFound) {
		t.Fatalf("open after delete should be ErrNotFound, got %v", err)
	}
}

func TestDiskListGroupsNewestFirst(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)
	times := []time.Time{
		time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 28, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 28, 17, 0, 0, 0, time.UTC),
	}
	i := 0
	d.now = func() time.Time { t := times[i]; i++; return t }
	for range times {
		if _, err := d.Save(ctx, "x.png", "image/png", strings.NewReader("p")); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	groups, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(groups))
	}
	if groups[0].Date != "2026-08-28" || groups[1].Date != "2026-08-27" {
		t.Fatalf("groups out of order: %s, %s", groups[0].Date, groups[1].Date)
	}
	day := groups[0]
	if len(day.Images) != 2 {
		t.Fatalf("expected 2 images on the newest day, got %d", len(day.Images))
	}
	if !day.Images[0].UploadTime.After(day.Images[1].UploadTime) {
		t.Fatal("images within a day should be newest first")
	}
}

func TestDiskRejectsTraversal(t *testing.T) {
	d := newTestDisk(t)
	if err := d.Delete(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("traversal name must not be deletable")
	}
	if _, _, err := d.Open(context.Background(), "../secret.png"); err == nil {
		t.Fatal("traversal name must not be openable")
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	d := newTestDisk(t)
	if _, err := d.Save(ctx, "a.png", "image/png", strings.NewReader("p")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	groups, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Images) != 1 {
		t.Fatalf("unexpected listing %+v", groups)
	}
}
