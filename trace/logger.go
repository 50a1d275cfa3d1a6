package trace

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/disasm"
	"github.com/sarchlab/rv32sim/emu"
)

// Logger is a hook that logs each step at debug level.
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a Logger writing through log. A nil log uses the
// standard logrus logger.
func NewLogger(log *logrus.Logger) *Logger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{log: log}
}

// Func logs a step. Other hook positions are ignored.
func (l *Logger) Func(ctx sim.HookCtx) {
	if ctx.Pos != emu.HookPosStep {
		return
	}

	record, ok := ctx.Item.(*emu.StepRecord)
	if !ok {
		return
	}

	fields := logrus.Fields{
		"pc": record.PC,
	}

	if record.Inst == nil {
		l.log.WithFields(fields).WithError(record.Result.Err).Debug("fetch failed")
		return
	}

	fields["word"] = uint32(record.Inst.Word)
	if record.RegWritten {
		fields["rd"] = record.Rd
		fields["value"] = record.RdValue
	}
	if record.Mem != nil {
		fields["addr"] = record.Mem.Addr
	}

	text, err := disasm.Disassemble(record.Inst)
	if err != nil {
		l.log.WithFields(fields).WithError(err).Debug("step faulted")
		return
	}

	entry := l.log.WithFields(fields)
	if record.Result.Err != nil {
		entry = entry.WithError(record.Result.Err)
	}
	entry.Debug(text)
}
