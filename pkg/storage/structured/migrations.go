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

package structured

import (
	migrate "github.com/rubenv/sql-migrate"
)

// migrations is the schema history of the structured store. Entries are
// append-only.
var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "1-create-papers",
			Up: []string{
				`CREATE TABLE papers (
					id INTEGER PRIMARY KEY,
					data TEXT NOT NULL,
					title TEXT NOT NULL DEFAULT '',
					year INTEGER NOT NULL DEFAULT 0,
					research_area TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE INDEX idx_papers_title ON papers(title)`,
				`CREATE INDEX idx_papers_year ON papers(year)`,
				`CREATE INDEX idx_papers_research_area ON papers(research_area)`,
			},
			Down: []string{`DROP TABLE papers`},
		},
		{
			Id: "2-create-files",
			Up: []string{
				`CREATE TABLE files (
					paper_id INTEGER NOT NULL,
					chunk_index INTEGER NOT NULL,
					data BLOB NOT NULL,
					total_chunks INTEGER NOT NULL,
					file_name TEXT NOT NULL DEFAULT '',
					file_size INTEGER NOT NULL DEFAULT 0,
					mime_type TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (paper_id, chunk_index)
				)`,
			},
			Down: []string{`DROP TABLE files`},
		},
		{
			Id: "3-create-thumbnails",
			Up: []string{
				`CREATE TABLE thumbnails (
					paper_id INTEGER PRIMARY KEY,
					thumbnail TEXT NOT NULL,
					created_at INTEGER NOT NULL
				)`,
			},
			Down: []string{`DROP TABLE thumbnails`},
		},
	},
}
