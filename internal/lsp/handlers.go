// Package lsp implements LSP protocol handlers.
package lsp

// This package contains the LSP request and notification handlers:
// - Initialize / Initialized / Shutdown
// - textDocument/didOpen, didClose, didChange (publishes scope chain diagnostics)
// - textDocument/completion, hover, definition
// - textDocument/documentSymbol, codeAction
// - workspace/symbol, workspace/didChangeConfiguration,
//   workspace/didChangeWorkspaceFolders (workspace index)
