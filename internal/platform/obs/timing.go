package obs

import (
	"log"
	"time"
)

// Time logs an operation's duration (and error, if any) when the returned
// function runs. Use as: defer obs.Time("fetch.tiles")(&err)
func Time(name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Printf("op=%s dur=%dms err=%v", name, dur.Milliseconds(), *errp)
			return
		}
		log.Printf("op=%s dur=%dms", name, dur.Milliseconds())
	}
}
