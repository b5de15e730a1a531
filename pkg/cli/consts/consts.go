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

// Package consts provides definitions of constants
package consts

var (
	// ConfigFilename is the name of the config file
	ConfigFilename = "papershelfrc"
	// FlatFilename is the name of the key-value file of the flat store
	FlatFilename = "library.json"
	// StructuredFilename is the name of the SQLite database of the structured store
	StructuredFilename = "papershelf.db"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "PAPERSHELF_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "yaml"
	// UserIDPrefix prefixes generated user identifiers
	UserIDPrefix = "user_"
	// EnvFilename is the optional environment file read at startup
	EnvFilename = ".env"
)
