package main

import (
	"fmt"

	"github.com/sinspired/proxy-gen/app"
)

// 编译时通过 -ldflags "-X main.Version=... -X main.CurrentCommit=..." 注入
var (
	Version       = "dev"
	CurrentCommit = "unknown"
)

func main() {
	app.ExecuteGen(fmt.Sprintf("%s-%s", Version, CurrentCommit))
}
