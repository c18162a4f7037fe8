/*
Package monitoring provides Prometheus metrics for browserctl.

# Overview

Metrics live on a private registry owned by each Metrics value, so several
servers (or tests) can coexist in one process. The registry is exposed through
Handler for the /metrics endpoint.

# Metrics

  - browserctl_http_requests_total{method,path,status}
  - browserctl_http_request_duration_seconds{method,path}
  - browserctl_browser_operations_total{op,kind,result}
  - browserctl_browser_operation_duration_seconds{op,kind}
  - browserctl_browser_running{kind}
  - browserctl_browser_exits_total{kind,reason}
  - browserctl_profile_reset_bytes_total{kind}
  - browserctl_uptime_seconds

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "launch", "chrome")
	// ... perform operation ...
	timer.Stop("ok")
*/
package monitoring
