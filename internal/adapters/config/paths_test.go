package config

import (
	"path/filepath"
	"testing"
)

func TestXDGPathResolver_ConfigHomeOverride(t *testing.T) {
	t.Setenv("PMP_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	r := NewXDGPathResolver()
	if r.ConfigDir() != "/custom/config" {
		t.Errorf("ConfigDir() = %q, want %q", r.ConfigDir(), "/custom/config")
	}
	if r.ConfigFile() != filepath.Join("/custom/config", "pmp.toml") {
		t.Errorf("ConfigFile() = %q", r.ConfigFile())
	}
	if r.PartialsDir() != filepath.Join("/custom/config", "partials") {
		t.Errorf("PartialsDir() = %q", r.PartialsDir())
	}
}

func TestXDGPathResolver_DataDirDerivedDirs(t *testing.T) {
	t.Setenv("PMP_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_CACHE_HOME", "")

	r := NewXDGPathResolver()
	if r.DataDir() != filepath.Join("/custom/data", appName) {
		t.Errorf("DataDir() = %q", r.DataDir())
	}
	if r.TemplatePacksDir() != filepath.Join("/custom/data", appName, "template-packs") {
		t.Errorf("TemplatePacksDir() = %q", r.TemplatePacksDir())
	}
	if r.PoliciesDir() != filepath.Join("/custom/data", appName, "policies") {
		t.Errorf("PoliciesDir() = %q", r.PoliciesDir())
	}
}
