package core_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tapevm/core"
	"github.com/sarchlab/tapevm/program"
)

func mustCompile(src string) *core.Program {
	prog, err := core.CompileSource([]byte(src))
	Expect(err).NotTo(HaveOccurred())
	return prog
}

func ops(prog *core.Program) []core.OpKind {
	kinds := make([]core.OpKind, 0, prog.Len())
	for _, inst := range prog.Insts {
		kinds = append(kinds, inst.Op)
	}
	return kinds
}

var _ = Describe("Compile", func() {
	Context("run-length accumulation", func() {
		It("should fuse a run of increments", func() {
			prog := mustCompile("+++.")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInc, core.OpOutput, core.OpEnd}))
			Expect(prog.At(0).Inc).To(Equal(uint8(3)))
		})

		It("should pick the single-step variants", func() {
			Expect(ops(mustCompile("+."))).To(Equal([]core.OpKind{
				core.OpPlus, core.OpOutput, core.OpEnd}))
			Expect(ops(mustCompile("-."))).To(Equal([]core.OpKind{
				core.OpMinus, core.OpOutput, core.OpEnd}))
			Expect(ops(mustCompile(">."))).To(Equal([]core.OpKind{
				core.OpRight, core.OpOutput, core.OpEnd}))
			Expect(ops(mustCompile("><<."))).To(Equal([]core.OpKind{
				core.OpLeft, core.OpOutput, core.OpEnd}))
		})

		It("should wrap the increment modulo 256", func() {
			prog := mustCompile(strings.Repeat("+", 256) + ".")

			Expect(ops(prog)).To(Equal([]core.OpKind{core.OpOutput, core.OpEnd}))
		})

		It("should keep the signed value of a decrement run", func() {
			prog := mustCompile("---.")

			Expect(prog.At(0).Op).To(Equal(core.OpInc))
			Expect(prog.At(0).SignedInc()).To(Equal(-3))
		})

		It("should cancel opposite shifts", func() {
			prog := mustCompile("+>><<.")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpPlus, core.OpOutput, core.OpEnd}))
		})

		It("should fuse an increment followed by a shift", func() {
			prog := mustCompile("++>>>.")

			Expect(prog.At(0).Op).To(Equal(core.OpIncShift))
			Expect(prog.At(0).Inc).To(Equal(uint8(2)))
			Expect(prog.At(0).Shift).To(Equal(3))
		})

		It("should not fuse a shift followed by an increment", func() {
			prog := mustCompile(">>+.")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpShift, core.OpPlus, core.OpOutput, core.OpEnd}))
			Expect(prog.At(0).Shift).To(Equal(2))
		})
	})

	Context("zero loops", func() {
		It("should compile a clear loop on a live cell to ZERO", func() {
			prog := mustCompile("++[-]")

			Expect(ops(prog)).To(Equal([]core.OpKind{core.OpZero, core.OpEnd}))
		})

		It("should accept [+] as well", func() {
			prog := mustCompile(",[+].")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInput, core.OpZero, core.OpOutput, core.OpEnd}))
		})

		It("should flush a pending shift before clearing", func() {
			prog := mustCompile("+>[-]")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpIncShift, core.OpZero, core.OpEnd}))
		})
	})

	Context("dead code", func() {
		It("should drop a loop on the initial zero cell", func() {
			prog := mustCompile("[-]")

			Expect(ops(prog)).To(Equal([]core.OpKind{core.OpEnd}))
		})

		It("should drop nested dead loops", func() {
			prog := mustCompile("[[+]>[-]<[>.<]]+.")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpPlus, core.OpOutput, core.OpEnd}))
		})

		It("should drop a loop right after another loop", func() {
			prog := mustCompile(",[.][.,]")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInput, core.OpOpen, core.OpOutput, core.OpClose,
				core.OpEnd}))
		})

		It("should drop a loop after a clear", func() {
			prog := mustCompile("+[-][>+<].")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpZero, core.OpOutput, core.OpEnd}))
		})
	})

	Context("loops", func() {
		It("should cross-wire the branch targets", func() {
			prog := mustCompile(",[>+<-].")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInput, core.OpOpen, core.OpRight, core.OpIncShift,
				core.OpIncShiftClose, core.OpOutput, core.OpEnd}))

			Expect(prog.At(1).Branch).To(Equal(5))
			Expect(prog.At(4).Branch).To(Equal(2))
			Expect(prog.At(3).SignedInc()).To(Equal(1))
			Expect(prog.At(3).Shift).To(Equal(-1))
			Expect(prog.At(4).SignedInc()).To(Equal(-1))
			Expect(prog.At(4).Shift).To(Equal(0))
		})

		It("should fuse a pending delta into the entry test", func() {
			prog := mustCompile("+>+[-<]")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpIncShift, core.OpIncShiftOpen, core.OpIncShiftClose,
				core.OpEnd}))
			Expect(prog.At(1).Inc).To(Equal(uint8(1)))
			Expect(prog.At(1).Shift).To(Equal(0))
			Expect(prog.At(1).Branch).To(Equal(3))
			Expect(prog.At(2).Branch).To(Equal(2))
		})

		It("should emit a passthrough exit and skip it in the next chain", func() {
			prog := mustCompile(",[[-]]")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInput, core.OpOpen, core.OpZero, core.OpCloseNop,
				core.OpEnd}))

			Expect(prog.At(0).Next).To(Equal(1))
			Expect(prog.At(1).Next).To(Equal(2))
			Expect(prog.At(2).Next).To(Equal(4))
			Expect(prog.At(3).Next).To(Equal(4))
			Expect(prog.At(1).Branch).To(Equal(4))
			Expect(prog.At(3).Branch).To(Equal(2))
		})

		It("should skip a run of passthrough exits", func() {
			prog := mustCompile(",[[[-]]]")

			Expect(ops(prog)).To(Equal([]core.OpKind{
				core.OpInput, core.OpOpen, core.OpOpen, core.OpZero,
				core.OpCloseNop, core.OpCloseNop, core.OpEnd}))
			Expect(prog.At(3).Next).To(Equal(6))
			Expect(prog.At(4).Next).To(Equal(6))
		})
	})

	It("should end every program with a terminal", func() {
		for _, src := range []string{"", "+", "[", ",[.,]"} {
			s, err := program.Validate([]byte(src))
			if err != nil {
				continue
			}

			prog := core.Compile(s)

			Expect(prog.At(prog.Terminal()).Op).To(Equal(core.OpEnd))
			Expect(prog.At(prog.Terminal()).Next).To(Equal(core.NoInst))
		}
	})

	It("should never emit more records than symbols plus one", func() {
		src := ",[>+<-]>[<+>-]+[-]>>,[.,]<<"
		prog := mustCompile(src)

		Expect(prog.Len()).To(BeNumerically("<=", len(src)+1))
	})

	It("should report a syntax error from CompileSource", func() {
		_, err := core.CompileSource([]byte("+]"))

		var se *program.SyntaxError
		Expect(err).To(BeAssignableToTypeOf(se))
	})
})
