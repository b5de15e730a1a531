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


package infra

import "github.com/papershelf/papershelf/pkg/catalog"

func testPaper() catalog.Paper {
	return catalog.Paper{
		Title:        "Haptic Feedback for Blind Navigation",
		Authors:      []string{"Alex Kim"},
		Year:         2021,
		Journal:      "CHI",
		ResearchArea: catalog.AreaAccessible,
		Methodology:  "Experimental",
		StudyType:    "Empirical",
		Citations:    12,
		PDFURL:       "#",
		WebsiteURL:   "#",
	}
}
