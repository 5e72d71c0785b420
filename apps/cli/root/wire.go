package root

import (
	"github.com/zenGate-Global/palmyra-admins/apps/cli/cmd/admins"
	"github.com/zenGate-Global/palmyra-admins/apps/cli/cmd/auth"
)

func init() {
	Root().AddCommand(auth.Command())
	Root().AddCommand(admins.Command())
}
