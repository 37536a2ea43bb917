package register

import (
	_ "github.com/xxxsen/davclient/transport/httpdav"
	_ "github.com/xxxsen/davclient/transport/mem"
)
