// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// VersionDTO version information for API response
// VersionDTO 版本信息 API 响应对象
type VersionDTO struct {
	Version   string `json:"version"`   // Current version // 当前版本
	GitTag    string `json:"gitTag"`    // Git tag // Git 标签
	BuildTime string `json:"buildTime"` // Build time // 构建时间
}

// HealthDTO health check response
// HealthDTO 健康检查响应
type HealthDTO struct {
	Status        string  `json:"status"`        // ok / degraded
	Database      string  `json:"database"`      // Database status // 数据库状态
	Uptime        string  `json:"uptime"`        // Process uptime // 运行时长
	Goroutines    int     `json:"goroutines"`    // Goroutine count // 协程数
	HeapAllocMB   float64 `json:"heapAllocMb"`   // Go heap in use // Go 堆内存
	SysMemUsedPct float64 `json:"sysMemUsedPct"` // Host memory usage percent // 主机内存使用率
}
