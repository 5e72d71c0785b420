package sqlassets

import _ "embed"

//go:embed schema/admins.sql
var AdminsSQL string

//go:embed schema/admin_profile.json
var AdminProfileSchema []byte
