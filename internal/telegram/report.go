package telegram

import (
	"strconv"
	"time"

	"github.com/valyala/fasttemplate"
)

// batchReportTemplate 批量同步结果的消息模板
const batchReportTemplate = `*Lens 同步报告*
时间: {{time}}
钱包总数: {{total}}
成功: {{success}}
失败: {{failed}}`

// FormatBatchReport 渲染批量同步结果通知
func FormatBatchReport(total, success, failed int, at time.Time) string {
	tmpl := fasttemplate.New(batchReportTemplate, "{{", "}}")
	return tmpl.ExecuteString(map[string]interface{}{
		"time":    escapeMarkdownV2(at.Format("2006-01-02 15:04:05")),
		"total":   strconv.Itoa(total),
		"success": strconv.Itoa(success),
		"failed":  strconv.Itoa(failed),
	})
}
