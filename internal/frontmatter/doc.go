// Package frontmatter reads and writes post documents made of a TOML block
// fenced by "+++" lines followed by a free form markdown body. The body is
// carried as raw bytes and written back untouched.
package frontmatter
