// Package lyrics generates song lyrics through a language model, shaped by
// per-genre templates that describe structure, characteristics, and style.
package lyrics
