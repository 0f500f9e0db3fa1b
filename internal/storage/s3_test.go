// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"strings"
	"testing"
)

func TestNewUnconfigured(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "bucket", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client without endpoint and credentials")
	}
}

func TestKeyGeneration(t *testing.T) {
	a := AvatarKey("user-1")
	if !strings.HasPrefix(a, "avatars/user-1/") || !strings.HasSuffix(a, ".jpg") {
		t.Errorf("avatar key: %q", a)
	}
	b := BackgroundKey("user-1")
	if !strings.HasPrefix(b, "backgrounds/user-1/") || !strings.HasSuffix(b, ".jpg") {
		t.Errorf("background key: %q", b)
	}

	// Keys are unique per call so replaced media never collides.
	if AvatarKey("user-1") == AvatarKey("user-1") {
		t.Error("avatar keys should be unique")
	}
}

func TestFileURLAndExtract(t *testing.T) {
	c, err := New("https://s3.example.com/", "us-east-1", "key", "secret", "media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := c.FileURL("avatars/u/x.jpg")
	if url != "https://s3.example.com/media/avatars/u/x.jpg" {
		t.Errorf("file url: %q", url)
	}

	key, ok := c.ExtractS3Key(url)
	if !ok || key != "avatars/u/x.jpg" {
		t.Errorf("extract: got %q, %v", key, ok)
	}

	if _, ok := c.ExtractS3Key("https://elsewhere.example/avatars/u/x.jpg"); ok {
		t.Error("foreign URL should not extract")
	}
}

func TestFileURLWithPublicURL(t *testing.T) {
	c, err := New("https://s3.example.com", "us-east-1", "key", "secret", "media", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := c.FileURL("backgrounds/u/y.jpg")
	if url != "https://cdn.example.com/backgrounds/u/y.jpg" {
		t.Errorf("file url: %q", url)
	}

	key, ok := c.ExtractS3Key(url)
	if !ok || key != "backgrounds/u/y.jpg" {
		t.Errorf("extract via cdn: got %q, %v", key, ok)
	}

	// Path-style URLs still extract even when a CDN is configured.
	key, ok = c.ExtractS3Key("https://s3.example.com/media/backgrounds/u/z.jpg")
	if !ok || key != "backgrounds/u/z.jpg" {
		t.Errorf("extract path-style: got %q, %v", key, ok)
	}
}
