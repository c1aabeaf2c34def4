package trade

// Presentation metadata for direct-trade statuses, kept apart from the
// transition logic so UI concerns never leak into validation.

var statusColors = map[Status]string{
	StatusWaiting:   "bg-gray-100 text-gray-800",
	StatusTrading:   "bg-blue-100 text-blue-800",
	StatusCompleted: "bg-green-100 text-green-800",
}

var statusDisplayNames = map[Status]string{
	StatusWaiting:   "거래 대기",
	StatusTrading:   "거래 진행중",
	StatusCompleted: "거래 완료",
}

var statusDescriptions = map[Status]string{
	StatusWaiting:   "판매자가 거래를 시작하면 진행됩니다.",
	StatusTrading:   "직거래가 진행 중입니다. 상품을 확인한 후 거래 완료를 눌러주세요.",
	StatusCompleted: "거래가 완료되었습니다.",
}

// StatusColor returns the UI color class for a status.
func StatusColor(s Status) string {
	return statusColors[s]
}

// StatusDisplayName returns the display label for a status.
func StatusDisplayName(s Status) string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// StatusDescription returns the helper text shown under the trade
// progress UI.
func StatusDescription(s Status) string {
	return statusDescriptions[s]
}
