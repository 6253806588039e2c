// main is the entry point for the storecast CLI.
package main

import (
	"github.com/huangsam/storecast/cmd"
	"github.com/huangsam/storecast/internal/contract"
	"github.com/huangsam/storecast/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Error running storecast", err)
	}
}
