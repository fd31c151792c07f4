// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cooperative Fiber Pool - Example Driver
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Multi-threaded Cooperative Fiber Pool
// Component: Demonstration Workload & Graceful Shutdown
//
// Description:
//   Submits a fan-out of yielding tasks to a small pool, waits on every
//   future, journals completions to sqlite and prints the aggregate
//   snapshot. SIGINT/SIGTERM route through the control package for a clean
//   drain instead of a hard kill.
//
// Phases:
//   - Phase 1: Pool + journal bring-up
//   - Phase 2: Fan-out submission with cooperative yields
//   - Phase 3: Await futures, drain, snapshot, teardown
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	coroutine "github.com/Souma736/simple-coroutine"
	"github.com/Souma736/simple-coroutine/control"
	"github.com/Souma736/simple-coroutine/debug"
	"github.com/Souma736/simple-coroutine/journal"
)

const (
	workerCnt = 2
	fiberCnt  = 300
	taskCnt   = 400
)

// work burns simulated ticks, yielding between each so hundreds of tasks
// interleave on each worker thread, and verifies its own stack pattern
// survives the switches.
func work(id int, ticks int) {
	var arr [4096]int
	for t := 0; t < ticks; t++ {
		for i := range arr {
			arr[i] = i ^ id
		}
		time.Sleep(time.Millisecond)
		coroutine.CoYield()
		for i := range arr {
			if arr[i] != i^id {
				debug.DropMessage("corodemo", "stack pattern corrupted")
				os.Exit(1)
			}
		}
		if control.ShouldStop() {
			return
		}
	}
}

func main() {
	// ── Phase 1: bring-up ──
	jrnl, err := journal.Open("corodemo.db")
	if err != nil {
		debug.DropError("corodemo: journal open", err)
		os.Exit(1)
	}

	pool := coroutine.NewPool(workerCnt, fiberCnt, 1024, coroutine.WithJournal(jrnl))
	if !pool.Run() {
		debug.DropMessage("corodemo", "pool already running")
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		debug.DropMessage("corodemo", "shutdown requested, draining")
		control.Shutdown()
	}()

	// ── Phase 2: fan-out ──
	start := time.Now()
	futures := make([]*coroutine.Future, 0, taskCnt)
	for i := 0; i < taskCnt; i++ {
		id, ticks := i, rand.Intn(5)+1
		fut := pool.Submit(func() { work(id, ticks) })
		if fut == nil {
			// Queue full: back off briefly and drop this one, like any
			// load-shedding submitter would.
			time.Sleep(time.Millisecond)
			continue
		}
		futures = append(futures, fut)
	}

	// ── Phase 3: await, drain, snapshot ──
	for _, fut := range futures {
		fut.Wait()
		if err := fut.Err(); err != nil {
			debug.DropError("corodemo: task failed", err)
		}
	}
	pool.Stop()
	debug.DropCount("corodemo: tasks completed", uint64(len(futures)))

	if err := jrnl.Close(); err != nil {
		debug.DropError("corodemo: journal close", err)
	}
	snap, err := jrnl.Snapshot()
	if err != nil {
		debug.DropError("corodemo: snapshot", err)
	} else {
		fmt.Printf("completed %d/%d tasks in %v\n%s\n",
			len(futures), taskCnt, time.Since(start), snap)
	}
}
