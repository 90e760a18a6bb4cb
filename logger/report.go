package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type endpointStat struct {
	requests int64
	failures int64
}

var (
	errorsStream int64
	errorsPoll   int64
	warnsStream  int64
	warnsPoll    int64
	framesRead   int64
	framesBytes  int64
	frameDrops   int64
	reconnects   int64
	endpoints    sync.Map // map[string]*endpointStat
)

func recordWarn(component string) {
	if strings.Contains(component, "stream") || strings.Contains(component, "dispatcher") {
		atomic.AddInt64(&warnsStream, 1)
	} else if strings.Contains(component, "poll") {
		atomic.AddInt64(&warnsPoll, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "stream") || strings.Contains(component, "dispatcher") {
		atomic.AddInt64(&errorsStream, 1)
	} else if strings.Contains(component, "poll") {
		atomic.AddInt64(&errorsPoll, 1)
	}
}

// IncrementFrameRead records one inbound stream frame of the given size.
func IncrementFrameRead(size int) {
	atomic.AddInt64(&framesRead, 1)
	atomic.AddInt64(&framesBytes, int64(size))
}

// IncrementFrameDropped records a frame discarded by the codec or a full
// channel.
func IncrementFrameDropped() {
	atomic.AddInt64(&frameDrops, 1)
}

// IncrementReconnect records one scheduled stream reconnect attempt.
func IncrementReconnect() {
	atomic.AddInt64(&reconnects, 1)
}

// RecordPollRequest records the outcome of one polling request per endpoint.
func RecordPollRequest(endpoint string, failed bool) {
	v, _ := endpoints.LoadOrStore(endpoint, &endpointStat{})
	es := v.(*endpointStat)
	atomic.AddInt64(&es.requests, 1)
	if failed {
		atomic.AddInt64(&es.failures, 1)
	}
}

func startReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

// StartReport begins periodic logging of runtime and pipeline statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	startReport(ctx, log, interval)
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()

	endpointData := map[string]map[string]int64{}
	endpoints.Range(func(k, v any) bool {
		name := k.(string)
		es := v.(*endpointStat)
		endpointData[name] = map[string]int64{
			"requests": atomic.LoadInt64(&es.requests),
			"failures": atomic.LoadInt64(&es.failures),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	memMB := int64(0)
	if memStats != nil {
		memMB = int64(memStats.Used) / 1024 / 1024
	}

	fields := Fields{
		"errors_stream": atomic.LoadInt64(&errorsStream),
		"errors_poll":   atomic.LoadInt64(&errorsPoll),
		"warns_stream":  atomic.LoadInt64(&warnsStream),
		"warns_poll":    atomic.LoadInt64(&warnsPoll),
		"frames_read":   atomic.LoadInt64(&framesRead),
		"frames_bytes":  atomic.LoadInt64(&framesBytes),
		"frame_drops":   atomic.LoadInt64(&frameDrops),
		"reconnects":    atomic.LoadInt64(&reconnects),
		"goroutines":    runtime.NumGoroutine(),
		"cpu_percent":   cpuPct,
		"memory_mb":     memMB,
		"endpoints":     endpointData,
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		cwtypes.MetricDatum{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memMB))},
		cwtypes.MetricDatum{MetricName: aws.String("FramesRead"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&framesRead)))},
		cwtypes.MetricDatum{MetricName: aws.String("FrameDrops"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&frameDrops)))},
		cwtypes.MetricDatum{MetricName: aws.String("Reconnects"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&reconnects)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsStream"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsStream)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsPoll"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(atomic.LoadInt64(&errorsPoll)))},
	)

	for name, stats := range endpointData {
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("PollRequests"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Endpoint"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["requests"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("PollFailures"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Endpoint"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["failures"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
