/*
Package observability turns controller lifecycle hooks into Prometheus metrics and
structured log lines.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	ctrl, _ := workplane.New(scene, workplane.WithLifecycleHooks(hooks))
*/
package observability
