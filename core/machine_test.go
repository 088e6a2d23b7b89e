package core_test

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/core"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]" +
	">>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func run(src string, cfg core.MachineConfig, input string) (*core.Machine, string, error) {
	var out bytes.Buffer

	m := core.NewMachine(cfg, strings.NewReader(input), &out)
	err := m.Run(mustCompile(src))

	return m, out.String(), err
}

var _ = Describe("Machine", func() {
	var cfg core.MachineConfig

	BeforeEach(func() {
		cfg = core.DefaultMachineConfig()
	})

	It("should print a cell after a run of increments", func() {
		_, out, err := run("+++.", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect([]byte(out)).To(Equal([]byte{3}))
	})

	It("should drain a cell to zero", func() {
		m, out, err := run("++[-]", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(m.Tape()[0]).To(Equal(byte(0)))
	})

	It("should run a dead loop program to the terminal only", func() {
		m, out, err := run("[-]", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(m.Steps()).To(Equal(uint64(1)))
	})

	It("should store the sentinel at end of input", func() {
		cfg.EOF = core.EOFValue
		cfg.EOFValue = 65

		_, out, err := run(",.", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("A"))
	})

	It("should leave the cell unchanged at end of input", func() {
		_, out, err := run(",.", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect([]byte(out)).To(Equal([]byte{0}))
	})

	It("should keep a previous value at end of input", func() {
		_, out, err := run("+++++,.", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect([]byte(out)).To(Equal([]byte{5}))
	})

	It("should echo its input", func() {
		_, out, err := run(",[.[-],]", cfg, "tape")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("tape"))
	})

	It("should wrap cell arithmetic modulo 256", func() {
		_, out, err := run(",+.,-.", cfg, "\xff\x00")

		Expect(err).NotTo(HaveOccurred())
		Expect([]byte(out)).To(Equal([]byte{0, 255}))
	})

	It("should print hello world", func() {
		_, out, err := run(helloWorld, cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Hello World!\n"))
	})

	It("should add two cells", func() {
		m, out, err := run(",>,<[->+<]>.", cfg, "\x03\x04")

		Expect(err).NotTo(HaveOccurred())
		Expect([]byte(out)).To(Equal([]byte{7}))
		Expect(m.Cursor()).To(Equal(1))
	})

	It("should start at the configured origin", func() {
		cfg.Origin = 5

		m, _, err := run("+", cfg, "")

		Expect(err).NotTo(HaveOccurred())
		Expect(m.Tape()[5]).To(Equal(byte(1)))
	})

	It("should run again on a fresh tape", func() {
		var out bytes.Buffer
		m := core.NewMachine(cfg, nil, &out)
		prog := mustCompile("+.")

		Expect(m.Run(prog)).To(Succeed())
		Expect(m.Run(prog)).To(Succeed())
		Expect(out.Bytes()).To(Equal([]byte{1, 1}))
	})

	Context("with bounds checking", func() {
		It("should abort on a move left of the origin", func() {
			m, out, err := run("<.", cfg, "")

			var be *core.BoundsError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Cursor).To(Equal(-1))
			Expect(be.Inst).To(Equal(0))
			Expect(out).To(BeEmpty())
			Expect(m.Steps()).To(Equal(uint64(1)))
		})

		It("should abort on a move past the end", func() {
			cfg.TapeSize = 2

			_, _, err := run(">+>+", cfg, "")

			var be *core.BoundsError
			Expect(errors.As(err, &be)).To(BeTrue())
			Expect(be.Cursor).To(Equal(2))
			Expect(be.TapeSize).To(Equal(2))
		})

		It("should check a fused entry test before reading the cell", func() {
			cfg.TapeSize = 1

			_, _, err := run(",>[.]", cfg, "x")

			var be *core.BoundsError
			Expect(errors.As(err, &be)).To(BeTrue())
		})

		It("should reject an origin outside the tape", func() {
			cfg.Origin = cfg.TapeSize

			_, _, err := run("+", cfg, "")

			var be *core.BoundsError
			Expect(errors.As(err, &be)).To(BeTrue())
		})

		It("should allow excursions that return in range", func() {
			cfg.TapeSize = 3

			_, out, err := run(">>+<<.>>.", cfg, "")

			Expect(err).NotTo(HaveOccurred())
			Expect([]byte(out)).To(Equal([]byte{0, 1}))
		})
	})

	Context("without bounds checking", func() {
		BeforeEach(func() {
			cfg.BoundsCheck = false
		})

		It("should not stop on a move outside the tape", func() {
			cfg.TapeSize = 1

			m, _, err := run(">", cfg, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(m.Cursor()).To(Equal(1))
		})

		It("should report a fault when a cell outside the tape is touched", func() {
			_, _, err := run("<+", cfg, "")

			Expect(errors.Is(err, core.ErrTapeFault)).To(BeTrue())
		})
	})

	Context("with mocked I/O", func() {
		var (
			mockCtrl *gomock.Controller
			in       *MockByteReader
			out      *MockByteWriter
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			in = NewMockByteReader(mockCtrl)
			out = NewMockByteWriter(mockCtrl)
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should write exactly one byte per output record", func() {
			gomock.InOrder(
				out.EXPECT().WriteByte(byte(2)).Return(nil),
				out.EXPECT().WriteByte(byte(2)).Return(nil),
				out.EXPECT().WriteByte(byte(3)).Return(nil),
			)

			m := core.NewMachine(cfg, in, out)

			Expect(m.Run(mustCompile("++..+."))).To(Succeed())
		})

		It("should stop on a write error", func() {
			broken := errors.New("broken pipe")
			out.EXPECT().WriteByte(byte(0)).Return(broken)

			m := core.NewMachine(cfg, in, out)
			err := m.Run(mustCompile("..."))

			Expect(errors.Is(err, broken)).To(BeTrue())
		})

		It("should read one byte per input record", func() {
			gomock.InOrder(
				in.EXPECT().ReadByte().Return(byte('a'), nil),
				in.EXPECT().ReadByte().Return(byte(0), io.EOF),
			)
			out.EXPECT().WriteByte(byte('a')).Return(nil)

			m := core.NewMachine(cfg, in, out)

			Expect(m.Run(mustCompile(",,."))).To(Succeed())
		})

		It("should stop on a read error", func() {
			failed := errors.New("device gone")
			in.EXPECT().ReadByte().Return(byte(0), failed)

			m := core.NewMachine(cfg, in, out)
			err := m.Run(mustCompile(",."))

			Expect(errors.Is(err, failed)).To(BeTrue())
		})
	})
})

var _ = Describe("Core", func() {
	var (
		engine sim.Engine
		out    bytes.Buffer
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		out.Reset()
	})

	It("should run a mapped program on the engine", func() {
		c := core.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithInstsPerTick(4).
			WithOutput(&out).
			Build("Core")

		c.MapProgram(mustCompile(helloWorld))
		c.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Err()).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("Hello World!\n"))

		steps := c.Machine().Steps()
		Expect(c.Ticks()).To(Equal((steps + 3) / 4))
	})

	It("should keep the error that stopped the program", func() {
		c := core.NewBuilder().
			WithEngine(engine).
			WithOutput(&out).
			Build("Core")

		c.MapProgram(mustCompile("+.<"))
		c.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(c.Halted()).To(BeTrue())
		Expect(c.Ticks()).To(Equal(uint64(3)))

		var be *core.BoundsError
		Expect(errors.As(c.Err(), &be)).To(BeTrue())
		Expect([]byte(out.String())).To(Equal([]byte{1}))
	})

	It("should do nothing without a program", func() {
		c := core.NewBuilder().WithEngine(engine).Build("Core")

		Expect(c.Tick()).To(BeFalse())
	})

	It("should reject a non-positive batch size", func() {
		Expect(func() {
			core.NewBuilder().WithInstsPerTick(0)
		}).To(Panic())
	})
})
