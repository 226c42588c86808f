package util

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

func Warnf(format string, v ...interface{}) {
	log.Warnf(format, v...)
}

func Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

func Assert(err error, v ...interface{}) {
	if err != nil {
		if len(v) == 0 {
			Fatalf("%s", err)
		} else {
			format := v[0].(string)
			v = v[1:]
			Fatalf("%s: %s", fmt.Sprintf(format, v...), err)
		}
	}
}
