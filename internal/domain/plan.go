package domain

// LockfileName is skipped by destructive mirrors regardless of exclusions.
const LockfileName = "package-lock.json"

type CopyItem struct {
	SourcePath string
	Name       string
}

type CopyPlan struct {
	Items        []CopyItem
	SkippedDirs  []string
	SkippedFiles []string
	Warnings     []string
}

type CopiedFile struct {
	Name       string
	SourcePath string
	TargetPath string
}

type CopyFailure struct {
	Name       string
	SourcePath string
	Err        error
}

type MirrorResult struct {
	TargetDir string
	DryRun    bool
	Copied    []CopiedFile
	Failures  []CopyFailure
	Canceled  bool
}

// Count is the number of files copied successfully.
func (r MirrorResult) Count() int {
	return len(r.Copied)
}
