package metrics

func normalizeLabel(job string) string {
	if job == "" {
		return "unknown"
	}
	return job
}
