package leveldata

import (
	"errors"
	"os"
	"testing"
)

func TestLoadArenaData(t *testing.T) {
	data, err := LoadArenaData(os.DirFS("testdata"), "arenas/warehouse.tmx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if data.MapWidth != 320 || data.MapHeight != 320 {
		t.Errorf("expected 320x320 map, got %dx%d", data.MapWidth, data.MapHeight)
	}
	if data.TileWidth != 16 {
		t.Errorf("expected tile width 16, got %d", data.TileWidth)
	}
	if len(data.Walls) != 5 {
		t.Fatalf("expected 5 walls, got %d", len(data.Walls))
	}
	pillar := data.Walls[4]
	if pillar.X != 144 || pillar.Y != 144 || pillar.W != 32 || pillar.H != 32 {
		t.Errorf("unexpected pillar rect %+v", pillar)
	}

	if len(data.SpawnPoints) != 2 {
		t.Fatalf("expected 2 spawn points, got %d", len(data.SpawnPoints))
	}
	if data.SpawnPoints[0].Index != 0 || data.SpawnPoints[0].X != 48 {
		t.Errorf("expected spawns ordered by index, got %+v", data.SpawnPoints)
	}
}

func TestLoadArenaDataRequiresSpawns(t *testing.T) {
	_, err := LoadArenaData(os.DirFS("testdata"), "empty.tmx")
	if !errors.Is(err, ErrNoSpawnPoints) {
		t.Fatalf("expected ErrNoSpawnPoints, got %v", err)
	}
}

func TestLoadAllArenas(t *testing.T) {
	arenas, names, err := LoadAllArenas(os.DirFS("testdata"), "arenas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "warehouse" {
		t.Fatalf("expected [warehouse], got %v", names)
	}
	if arenas["warehouse"] == nil {
		t.Fatal("expected warehouse arena data")
	}
}

func TestLoadAllArenasEmptyDir(t *testing.T) {
	if _, _, err := LoadAllArenas(os.DirFS("testdata"), "missing"); err == nil {
		t.Fatal("expected error for a directory without arenas")
	}
}
