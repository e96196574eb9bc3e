package archive

import "errors"

var (
	errAbsolutePath    = errors.New("absolute paths not allowed in archive entries")
	errParentComponent = errors.New("parent directory components not allowed in archive entries")
	errEscapesDest     = errors.New("archive entry escapes destination root")
	errSymlinkRejected = errors.New("symlinks are not allowed in archive entries")
	errUnsupportedType = errors.New("unsupported tar entry type")
)
