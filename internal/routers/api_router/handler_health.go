package api_router

import (
	"runtime"
	"time"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/dto"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/mem"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

// NewHealthHandler 创建健康检查处理器实例
func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// Check 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态，包括数据库连接与内存占用
// @Tags 系统
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.HealthDTO}
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	response := dto.HealthDTO{
		Status:      "ok",
		Database:    "connected",
		Uptime:      time.Since(h.App.StartTime).Truncate(time.Second).String(),
		Goroutines:  runtime.NumGoroutine(),
		HeapAllocMB: float64(ms.HeapAlloc) / 1024 / 1024,
	}
	if vm, err := mem.VirtualMemoryWithContext(c.Request.Context()); err == nil {
		response.SysMemUsedPct = vm.UsedPercent
	}

	// 检查数据库连接
	if err := h.App.DB.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		h.logError(c.Request.Context(), "HealthHandler.Check", err)
		response.Status = "degraded"
		response.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.ErrorDBQuery.WithData(response))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(response))
}
