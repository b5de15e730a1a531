/* Copyright 2025 Papershelf Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/papershelf/papershelf/pkg/cli/consts"
	"github.com/papershelf/papershelf/pkg/dirs"
	"github.com/papershelf/papershelf/pkg/storage/mirror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// File hosts
const (
	FileHostGitHub = "github"
	FileHostS3     = "s3"
	FileHostNone   = "none"
)

// Defaults
const (
	DefaultFlatQuotaBytes   = 5 * 1024 * 1024
	DefaultBatchConcurrency = 3
	DefaultShareBaseURL     = "http://localhost:3002"
)

// Environment variables overriding the config file
const (
	EnvDatabaseURL = "PAPERSHELF_DATABASE_URL"
	EnvGitHubToken = "PAPERSHELF_GITHUB_TOKEN"
	EnvS3Bucket    = "PAPERSHELF_S3_BUCKET"
	EnvAWSRegion   = "AWS_REGION"
)

// GitHub locates the metadata mirror repository
type GitHub struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	Branch     string `yaml:"branch"`
	Token      string `yaml:"token"`
	CDNBaseURL string `yaml:"cdnBaseURL"`
}

// S3 locates the bucket of the S3 file host
type S3 struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// Config holds papershelf configuration
type Config struct {
	Editor           string `yaml:"editor"`
	DatabaseURL      string `yaml:"databaseURL"`
	GitHub           GitHub `yaml:"github"`
	FileHost         string `yaml:"fileHost"`
	S3               S3     `yaml:"s3"`
	FlatQuotaBytes   int    `yaml:"flatQuotaBytes"`
	BatchConcurrency int    `yaml:"batchConcurrency"`
	ShareBaseURL     string `yaml:"shareBaseURL"`
	MirrorSchedule   string `yaml:"mirrorSchedule"`
}

// Default returns the config written on first run
func Default(editor string) Config {
	return Config{
		Editor: editor,
		GitHub: GitHub{
			Branch:     "main",
			CDNBaseURL: mirror.DefaultCDNBaseURL,
		},
		FileHost:         FileHostGitHub,
		FlatQuotaBytes:   DefaultFlatQuotaBytes,
		BatchConcurrency: DefaultBatchConcurrency,
		ShareBaseURL:     DefaultShareBaseURL,
	}
}

// GetPath returns the path to the papershelf config file
func GetPath(paths dirs.Paths) string {
	return filepath.Join(paths.AppConfig(), consts.ConfigFilename)
}

// Read reads the config file
func Read(paths dirs.Paths) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(paths))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	err = yaml.Unmarshal(b, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(paths dirs.Paths, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	// the file may hold a GitHub token
	err = os.WriteFile(GetPath(paths), b, 0600)
	if err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// ApplyEnv overrides config values with the environment. lookup is
// os.LookupEnv outside of tests.
func ApplyEnv(cf Config, lookup func(string) (string, bool)) Config {
	if v, ok := lookup(EnvDatabaseURL); ok {
		cf.DatabaseURL = v
	}
	if v, ok := lookup(EnvGitHubToken); ok && v != "" {
		cf.GitHub.Token = v
	}
	if v, ok := lookup(EnvS3Bucket); ok && v != "" {
		cf.S3.Bucket = v
	}
	if v, ok := lookup(EnvAWSRegion); ok && v != "" {
		cf.S3.Region = v
	}

	return withDefaults(cf)
}

// withDefaults fills values missing from older config files
func withDefaults(cf Config) Config {
	d := Default("vi")

	if cf.Editor == "" {
		cf.Editor = d.Editor
	}
	if cf.GitHub.Branch == "" {
		cf.GitHub.Branch = d.GitHub.Branch
	}
	if cf.GitHub.CDNBaseURL == "" {
		cf.GitHub.CDNBaseURL = d.GitHub.CDNBaseURL
	}
	cf.FileHost = strings.ToLower(strings.TrimSpace(cf.FileHost))
	if cf.FileHost == "" {
		cf.FileHost = d.FileHost
	}
	if cf.FlatQuotaBytes <= 0 {
		cf.FlatQuotaBytes = d.FlatQuotaBytes
	}
	if cf.BatchConcurrency <= 0 {
		cf.BatchConcurrency = d.BatchConcurrency
	}
	if cf.ShareBaseURL == "" {
		cf.ShareBaseURL = d.ShareBaseURL
	}

	return cf
}
