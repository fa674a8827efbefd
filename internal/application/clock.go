package app

import "time"

var timeNow = time.Now
