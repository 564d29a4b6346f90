// main is the entry point for the salespulse CLI.
package main

import (
	"github.com/huangsam/salespulse/cmd"
	"github.com/huangsam/salespulse/internal/contract"
	"github.com/huangsam/salespulse/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	defer cmd.CloseSalesStore()

	cmd.SetCacheManager(iocache.Manager)
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("salespulse failed", err)
	}
}
