package cache

import _ "modernc.org/sqlite"

const driverName = "sqlite"
