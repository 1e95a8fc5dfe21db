package telegram

import (
	"strings"
	"testing"
	"time"
)

func TestFormatBatchReport(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC)
	msg := FormatBatchReport(5, 4, 1, at)

	for _, want := range []string{"钱包总数: 5", "成功: 4", "失败: 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("report missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "{{") {
		t.Errorf("unresolved template placeholder:\n%s", msg)
	}
	// MarkdownV2 要求转义日期里的连字符
	if !strings.Contains(msg, `2026\-08\-30`) {
		t.Errorf("timestamp should be MarkdownV2-escaped:\n%s", msg)
	}
}
