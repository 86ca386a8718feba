package board

import "fmt"

// Fixed label set. These are display fallbacks and placeholders; they are
// never written into the model.
const (
	TitlePlaceholder        = "예: 2026 나의 성장 프로젝트"
	DetailCenterPlaceholder = "중심 핵심 계획"
	DetailCenterFallback    = "핵심 계획"
	DigestTitleFallback     = "새해 목표"
	NoDetailsLine           = "(세부 계획 미입력)"
	ImageTitleFallback      = "나의 목표"
	ImageCenterFallback     = "올해 목표"
	OverviewCaption         = "기본 만다라트"
)

// GoalLabel is the fallback for an empty goal i.
func GoalLabel(i int) string {
	return fmt.Sprintf("핵심 계획 %d", i+1)
}

// DetailLabel is the placeholder for an empty detail i.
func DetailLabel(i int) string {
	return fmt.Sprintf("세부 실행 %d", i+1)
}

// ExpansionCaption labels the sub-grid of goal i in the image export.
func ExpansionCaption(i int) string {
	return fmt.Sprintf("%d번 확장", i+1)
}
