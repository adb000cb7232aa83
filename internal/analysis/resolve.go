package analysis

import (
	"github.com/CWBudde/go-pdx-lsp/internal/document"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
)

// ResolveOptions carries the document-kind defaults for a resolution.
type ResolveOptions struct {
	// RootType is the object type in scope inside the document-level block.
	// Empty means registry.Character.
	RootType registry.ObjectType

	// RootMode is the mode of the document-level block.
	RootMode Mode
}

func (o ResolveOptions) rootType() registry.ObjectType {
	if o.RootType == "" {
		return registry.Character
	}

	return o.RootType
}

// PositionContext is everything the editor features need to know about a
// cursor position.
type PositionContext struct {
	Depth      int
	BlockPath  []string
	Mode       Mode
	ObjectType registry.ObjectType
	Frames     []Frame
}

// ResolvePosition scans lines up to (line, char), char being a byte offset,
// and combines the block structure with the mode and object type in effect
// there. Malformed documents never fail; they resolve to ModeUnknown or to the
// root defaults.
func ResolvePosition(lines document.Lines, reg *registry.Registry, line, char int, opts ResolveOptions) PositionContext {
	scan := Scan(lines, line, char, opts.RootMode)

	return contextFromScan(scan, reg, opts)
}

func contextFromScan(scan ScanResult, reg *registry.Registry, opts ResolveOptions) PositionContext {
	mode := ModeUnknown
	if f, ok := scan.Innermost(); ok {
		mode = f.Mode
	} else if scan.Depth >= 1 {
		mode = opts.RootMode
	}

	return PositionContext{
		Depth:      scan.Depth,
		BlockPath:  scan.BlockPath,
		Mode:       mode,
		ObjectType: TrackScope(scan.BlockPath, opts.rootType(), reg),
		Frames:     scan.Frames,
	}
}
