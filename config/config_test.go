package config_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/tapevm/config"
	"github.com/sarchlab/tapevm/core"
)

func writeConfig(text string) string {
	path := filepath.Join(GinkgoT().TempDir(), "tapevm.yaml")
	Expect(os.WriteFile(path, []byte(text), 0o644)).To(Succeed())

	return path
}

var _ = Describe("Config", func() {
	It("should have valid defaults", func() {
		cfg := config.Default()

		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.TapeSize).To(Equal(core.DefaultTapeSize))
		Expect(cfg.EOFValue).To(BeNil())
		Expect(cfg.BoundsCheck).To(BeTrue())
	})

	It("should load a YAML file over the defaults", func() {
		path := writeConfig("tape_size: 64\neof_value: 0\ninsts_per_tick: 8\n")

		cfg, err := config.LoadFile(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.TapeSize).To(Equal(64))
		Expect(*cfg.EOFValue).To(Equal(0))
		Expect(cfg.InstsPerTick).To(Equal(8))
		Expect(cfg.BoundsCheck).To(BeTrue())
	})

	It("should turn bounds checking off from a file", func() {
		cfg, err := config.LoadFile(writeConfig("bounds_check: false\n"))

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.BoundsCheck).To(BeFalse())
	})

	It("should report a missing file", func() {
		_, err := config.LoadFile(filepath.Join(GinkgoT().TempDir(), "none.yaml"))

		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("should reject malformed YAML", func() {
		_, err := config.LoadFile(writeConfig("tape_size: [1, 2\n"))

		Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
	})

	DescribeTable("should reject out of range values",
		func(text string) {
			_, err := config.LoadFile(writeConfig(text))

			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
		},
		Entry("zero tape", "tape_size: 0\n"),
		Entry("negative tape", "tape_size: -5\n"),
		Entry("origin past the end", "tape_size: 4\norigin: 4\n"),
		Entry("sentinel too large", "eof_value: 256\n"),
		Entry("negative sentinel", "eof_value: -1\n"),
		Entry("no instructions per tick", "insts_per_tick: 0\n"),
		Entry("unknown log level", "log_level: loud\n"),
	)

	It("should map log levels", func() {
		cfg := config.Default()

		for name, want := range map[string]slog.Level{
			"trace": core.LevelTrace,
			"DEBUG": slog.LevelDebug,
			"info":  slog.LevelInfo,
			"warn":  slog.LevelWarn,
			"error": slog.LevelError,
		} {
			cfg.LogLevel = name
			level, err := cfg.Level()

			Expect(err).NotTo(HaveOccurred())
			Expect(level).To(Equal(want))
		}
	})

	It("should convert to a machine configuration", func() {
		eof := 10
		cfg := config.Default()
		cfg.TapeSize = 16
		cfg.Origin = 3
		cfg.EOFValue = &eof
		cfg.BoundsCheck = false

		mc := cfg.MachineConfig()

		Expect(mc.TapeSize).To(Equal(16))
		Expect(mc.Origin).To(Equal(3))
		Expect(mc.EOF).To(Equal(core.EOFValue))
		Expect(mc.EOFValue).To(Equal(byte(10)))
		Expect(mc.BoundsCheck).To(BeFalse())
	})

	It("should keep the cell on end of input without a sentinel", func() {
		Expect(config.Default().MachineConfig().EOF).To(Equal(core.EOFUnchanged))
	})
})

var _ = Describe("MachineBuilder", func() {
	It("should build a core that runs on the engine", func() {
		engine := sim.NewSerialEngine()
		cfg := config.Default()
		cfg.InstsPerTick = 2

		var out bytes.Buffer
		c := config.MachineBuilder{}.
			WithEngine(engine).
			WithConfig(cfg).
			WithInput(strings.NewReader("hi")).
			WithOutput(&out).
			Build("Machine")

		prog, err := core.CompileSource([]byte(",[.[-],]"))
		Expect(err).NotTo(HaveOccurred())

		c.MapProgram(prog)
		c.Start()

		Expect(engine.Run()).To(Succeed())
		Expect(c.Err()).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("hi"))
		Expect(c.Name()).To(Equal("Machine.Core"))
	})

	It("should refuse an invalid configuration", func() {
		cfg := config.Default()
		cfg.TapeSize = 0

		Expect(func() {
			config.MachineBuilder{}.WithConfig(cfg).Build("Machine")
		}).To(Panic())
	})
})
