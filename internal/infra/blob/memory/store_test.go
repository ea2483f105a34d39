package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"physiconf/internal/blob/core"
)

func TestPutGetHead(t *testing.T) {
	s := New()
	ctx := context.Background()
	info, err := s.Put(ctx, "runs/settings.xml", strings.NewReader("<settings/>"), core.PutOptions{ContentType: "application/xml", Metadata: map[string]string{"run": "1"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("<settings/>")) || info.ContentType != "application/xml" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, rc, err := s.Get(ctx, "runs/settings.xml")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "<settings/>" {
		t.Fatalf("unexpected body %q", body)
	}
	if got.Metadata["run"] != "1" {
		t.Fatalf("metadata lost: %+v", got.Metadata)
	}

	head, err := s.Head(ctx, "runs/settings.xml")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if head.Size != info.Size {
		t.Fatalf("head size %d != put size %d", head.Size, info.Size)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Put(ctx, "k", strings.NewReader("first"), core.PutOptions{})
	if _, err := s.Put(ctx, "k", strings.NewReader("second"), core.PutOptions{}); err != nil {
		t.Fatalf("overwrite put: %v", err)
	}
	_, rc, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "second" {
		t.Fatalf("overwrite lost: %q", body)
	}
	infos, _ := s.List(ctx, "")
	if len(infos) != 1 {
		t.Fatalf("overwrite duplicated keys: %+v", infos)
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, _, err := s.Get(context.Background(), "missing"); err == nil {
		t.Fatal("get of missing blob must fail")
	}
	if _, err := s.Head(context.Background(), "missing"); err == nil {
		t.Fatal("head of missing blob must fail")
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Put(ctx, "k", strings.NewReader("x"), core.PutOptions{})
	existed, err := s.Delete(ctx, "k")
	if err != nil || !existed {
		t.Fatalf("delete existing: existed=%v err=%v", existed, err)
	}
	existed, err = s.Delete(ctx, "k")
	if err != nil || existed {
		t.Fatalf("delete missing: existed=%v err=%v", existed, err)
	}
}

func TestListPrefixSorted(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Put(ctx, "runs/b", strings.NewReader("x"), core.PutOptions{})
	s.Put(ctx, "runs/a", strings.NewReader("x"), core.PutOptions{})
	s.Put(ctx, "other/c", strings.NewReader("x"), core.PutOptions{})

	infos, err := s.List(ctx, "runs/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "runs/a" || infos[1].Key != "runs/b" {
		t.Fatalf("unexpected listing %+v", infos)
	}
}

func TestPresignUnsupported(t *testing.T) {
	s := New()
	if _, err := s.PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
