package repos

import (
	"context"
	"testing"
)

func TestPlatformRepoExcludesZeroActive(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewPlatformRepo(gdb, newTestLogger(t))

	busy := seedPlatform(t, gdb, "mastodon")
	slow := seedPlatform(t, gdb, "diaspora")
	dead := seedPlatform(t, gdb, "deadplatform")

	seedNode(t, gdb, "m1.example.com", true, busy)
	seedNode(t, gdb, "m2.example.com", true, busy)
	seedNode(t, gdb, "d1.example.com", true, slow)
	seedNode(t, gdb, "gone.example.com", false, dead)

	platforms, err := repo.WithActiveNodes(context.Background(), "")
	if err != nil {
		t.Fatalf("WithActiveNodes: %v", err)
	}
	if len(platforms) != 2 {
		t.Fatalf("expected 2 platforms, got %d", len(platforms))
	}
	if platforms[0].Name != "mastodon" || platforms[1].Name != "diaspora" {
		t.Fatalf("unexpected order: %s, %s", platforms[0].Name, platforms[1].Name)
	}
	if platforms[0].ActiveNodes == nil || *platforms[0].ActiveNodes != 2 {
		t.Fatalf("expected 2 active nodes annotated, got %v", platforms[0].ActiveNodes)
	}
}

func TestPlatformRepoNameFilterLowercases(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewPlatformRepo(gdb, newTestLogger(t))

	platform := seedPlatform(t, gdb, "mastodon")
	seedNode(t, gdb, "m1.example.com", true, platform)

	platforms, err := repo.WithActiveNodes(context.Background(), "Mastodon")
	if err != nil {
		t.Fatalf("WithActiveNodes: %v", err)
	}
	if len(platforms) != 1 || platforms[0].Name != "mastodon" {
		t.Fatalf("expected lower-cased name match, got %+v", platforms)
	}
}

func TestProtocolRepoActiveNodeCounts(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewProtocolRepo(gdb, newTestLogger(t))

	activitypub := seedProtocol(t, gdb, "activitypub")
	matrix := seedProtocol(t, gdb, "matrix")
	seedProtocol(t, gdb, "unused")

	seedNode(t, gdb, "a1.example.com", true, nil, activitypub)
	seedNode(t, gdb, "a2.example.com", true, nil, activitypub, matrix)
	seedNode(t, gdb, "off.example.com", false, nil, matrix)

	protocols, err := repo.WithActiveNodes(context.Background(), "")
	if err != nil {
		t.Fatalf("WithActiveNodes: %v", err)
	}
	if len(protocols) != 2 {
		t.Fatalf("expected 2 protocols, got %d", len(protocols))
	}
	if protocols[0].Name != "activitypub" {
		t.Fatalf("expected activitypub first, got %s", protocols[0].Name)
	}
	if protocols[0].ActiveNodes == nil || *protocols[0].ActiveNodes != 2 {
		t.Fatalf("expected 2 active activitypub nodes, got %v", protocols[0].ActiveNodes)
	}
	if protocols[1].Name != "matrix" || protocols[1].ActiveNodes == nil || *protocols[1].ActiveNodes != 1 {
		t.Fatalf("unexpected matrix row: %+v", protocols[1])
	}
}
