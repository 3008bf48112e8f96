// Package hook provides mapstructure decode hooks for configuration values
// that viper cannot decode on its own.
package hook

import (
	"reflect"
	"regexp"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap/zapcore"
)

var (
	regexpType = reflect.TypeOf(&regexp.Regexp{})
	levelType  = reflect.TypeOf(zapcore.InfoLevel)
)

// Regexp decodes a string into a compiled *regexp.Regexp.
func Regexp() mapstructure.DecodeHookFuncType {
	return func(in reflect.Type, out reflect.Type, val interface{}) (interface{}, error) {
		if in.Kind() == reflect.String && out == regexpType {
			return regexp.Compile(val.(string))
		}
		return val, nil
	}
}

// Level decodes a string such as "debug" or "info" into a zapcore.Level.
func Level() mapstructure.DecodeHookFuncType {
	return func(in reflect.Type, out reflect.Type, val interface{}) (interface{}, error) {
		if in.Kind() == reflect.String && out == levelType {
			l := zapcore.InfoLevel
			if err := l.UnmarshalText([]byte(val.(string))); err != nil {
				return nil, err
			}
			return l, nil
		}
		return val, nil
	}
}
