package logsvc

import (
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"
	"go.uber.org/zap"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/identity"
)

// RollbarLogger reports to Rollbar and writes structured lines through zap.
type RollbarLogger struct {
	sugar *zap.SugaredLogger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(conf *core.Config) (*RollbarLogger, error) {
	var cfg zap.Config
	if strings.EqualFold(conf.Env, "PROD") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if conf.TestMode {
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetServerRoot("github.com/trezcool/watas")
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(conf.RollbarToken != "" && !conf.Debug)

	return &RollbarLogger{sugar: zl.Sugar().With("app", conf.AppName, "build", conf.Build)}, nil
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Sync flushes both zap & rollbar buffers.
func (l RollbarLogger) Sync() {
	_ = l.sugar.Sync()
	rollbar.Wait()
}

// prepare splits args into rollbar interfaces & zap key/value pairs.
// expected fmt: msg | error, "key", value, map[string]interface{}, identity.Identity
func (l RollbarLogger) prepare(msg string, args []interface{}) ([]interface{}, []interface{}) {
	var personSet bool
	extras := make(map[string]interface{})
	rbArgs := []interface{}{msg}
	kvs := make([]interface{}, 0, len(args)+1)

	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case identity.Identity:
			if !personSet { // only set one person
				rollbar.SetPerson(arg.ID, "", arg.Email)
				personSet = true
				kvs = append(kvs, "user_id", arg.ID)
			}
		case error:
			rbArgs = append(rbArgs, arg)
			kvs = append(kvs, "error", arg)
		case map[string]interface{}:
			for k, v := range arg {
				extras[k] = v
				kvs = append(kvs, k, v)
			}
		case string:
			if i+1 < len(args) {
				extras[arg] = args[i+1]
				kvs = append(kvs, arg, args[i+1])
				i++
			} else {
				kvs = append(kvs, "detail", arg)
			}
		default:
			kvs = append(kvs, "arg", arg)
		}
	}
	if !personSet {
		rollbar.ClearPerson()
	}
	if len(extras) > 0 {
		rbArgs = append(rbArgs, extras)
	}
	return rbArgs, kvs
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Debug(rbArgs...)
	l.sugar.Debugw(msg, kvs...)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Info(rbArgs...)
	l.sugar.Infow(msg, kvs...)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Warning(rbArgs...)
	l.sugar.Warnw(msg, kvs...)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Error(rbArgs...)
	l.sugar.Errorw(msg, kvs...)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rbArgs, kvs := l.prepare(msg, args)
	rollbar.Critical(rbArgs...)
	rollbar.Wait()
	l.sugar.Fatalw(msg, kvs...)
}
