package mcpserver

// Tool descriptions carry interpretation guidance for the calling model.

func describeMetrics() string {
	return `Computes per-file line metrics with fast language heuristics: line classification, cyclomatic and cognitive complexity, Halstead statistics, Maintainability Index and a churn-weighted Risk Score.

USE WHEN:
- Getting a quick maintainability overview of an unfamiliar tree
- Ranking files for review or refactoring
- Spotting files that are both complex and frequently changed
- Checking for obvious secrets, long lines and TODO/FIXME markers

INTERPRETING RESULTS:
- maintainability_index is 0-100; status critical < 20 <= moderate < 50 <= good
- cyclomatic_complexity counts branch keywords and boolean operators per file
- cognitive_complexity grows with nesting depth
- risk_score is 0-100 and only present for files with git history; 0 with no churn means "not computed"
- duplication_percentage and test_coverage come from configuration and default to 0
- findings are free-text hints, not verified issues

METRICS RETURNED:
- Per-file: line counts, complexity, Halstead volume/difficulty/effort, MI, risk, churn summary, findings
- Summary: totals, averages, median MI, p90 cognitive complexity, files with risk
- Diagnostics: files that could not be read`
}

func describeDuplicates() string {
	return `Finds the most repeated blocks of three consecutive lines across a tree.

USE WHEN:
- Looking for copy-paste that could be extracted
- Sizing boilerplate before a cleanup

INTERPRETING RESULTS:
- count is how often the exact block occurs, across and within files
- Blocks are compared verbatim, so whitespace changes defeat matching
- Short structural blocks (closing braces, imports) are expected to rank high

METRICS RETURNED:
- blocks: ordered by count, then text
- total_files_scanned and distinct_blocks
- diagnostics for unreadable files`
}
