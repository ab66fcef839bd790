// Copyright 2025 the ctjot-web-generator authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// 開發用任務腳本：go run scripts/ops.go [task]
//
// 取代 Makefile 的跨平台方案（Windows 上也能跑）。
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/ops.go [test|test-all|test-detail]")
		os.Exit(1)
	}

	switch task := os.Args[1]; task {
	case "test":
		runTest(false)
	case "test-all":
		runTestAll()
	case "test-detail":
		runTest(true)
	default:
		printYellow("Unknown task: " + task)
		os.Exit(1)
	}
}

// ANSI 顏色代碼（Windows 10+ 的 cmd/powershell 皆支援）
const (
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorReset  = "\033[0m"
)

func printGreen(msg string)  { fmt.Println(colorGreen + msg + colorReset) }
func printRed(msg string)    { fmt.Println(colorRed + msg + colorReset) }
func printYellow(msg string) { fmt.Println(colorYellow + msg + colorReset) }

// runTest 跑全套件測試並過濾輸出。
//
//	go clean -testcache && go test ./... -cover -count=1 2>&1 | grep -E '^(ok|FAIL)'
//
// detail 模式不過濾，逐行照印（只上色）。
func runTest(detail bool) {
	printGreen("running tests")

	// clean 失敗不中斷，cache 壞掉頂多多跑一次
	_ = exec.Command("go", "clean", "-testcache").Run()

	cmd := exec.Command("go", "test", "./...", "-cover", "-count=1")
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		panic(err)
	}
	cmd.Stderr = cmd.Stdout // 2>&1：編譯錯誤也要看得到

	if err := cmd.Start(); err != nil {
		printRed("go test: " + err.Error())
		os.Exit(1)
	}

	sc := bufio.NewScanner(pipe)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "ok"):
			printGreen(line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"):
			printRed(line)
		case detail:
			fmt.Println(line)
		}
	}

	if err := cmd.Wait(); err != nil {
		printRed("\nTests Finished with Errors\n")
		os.Exit(1)
	}
}

// runTestAll 不過濾輸出，直接接管 stdout/stderr。
func runTestAll() {
	printGreen("running all tests")

	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		printRed(err.Error())
		os.Exit(1)
	}

	cmd := exec.Command("go", "test", "-cover", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
