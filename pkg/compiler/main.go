// Package compiler lowers a small structured language onto the tape
// machine's eight operations.
//
// Pipeline: source → Lex → Parse → Generate → tape-machine program
package compiler
