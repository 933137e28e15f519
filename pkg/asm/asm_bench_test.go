package asm

import (
	"strings"
	"testing"
)

// smallAsmProgram prints "A" ten times.
const smallAsmProgram = `
#define ch 0
#define n 1
set ch 65
set n 10
rs 1
loop
ls 1
write 0
rs 1
sub 0 1
end
`

// mediumAsmProgram multiplies two cells, one addition per pass of the
// outer loop, then prints the product.
const mediumAsmProgram = `
#define a 0
#define b 1
#define prod 2
#define t 3
set a 5
set b 9
set prod 0
set t 0
loop
copy b prod t
copy t b
sub a 1
end
write prod
`

func BenchmarkAssemble_Small(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Assemble(smallAsmProgram); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Medium(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Assemble(mediumAsmProgram); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAssemble_Large(b *testing.B) {
	chunk := "set 0 5\nset 1 9\nloop\ncopy 1 2 3\ncopy 3 1\nsub 0 1\nend\nwrite 2\n"
	src := strings.Repeat(chunk, 50)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Assemble(src); err != nil {
			b.Fatal(err)
		}
	}
}
