package vkng

import (
	"github.com/Oki1/Vulkano/driver"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
)

func messengerCreateInfo(fn driver.DiagnosticFunc) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityVerbose | ext_debug_utils.SeverityInfo | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityError,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			msg := driver.Message{
				Severity: convertSeverity(severity),
				Category: convertCategory(msgType),
			}
			if data != nil {
				msg.Text = data.Message
			}
			fn(msg)
			return false
		},
	}
}

func convertSeverity(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) driver.Severity {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return driver.SeverityError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return driver.SeverityWarning
	case severity&ext_debug_utils.SeverityInfo != 0:
		return driver.SeverityInfo
	}
	return driver.SeverityVerbose
}

func convertCategory(msgType ext_debug_utils.DebugUtilsMessageTypeFlags) driver.Category {
	switch {
	case msgType&ext_debug_utils.TypeValidation != 0:
		return driver.CategoryValidation
	case msgType&ext_debug_utils.TypePerformance != 0:
		return driver.CategoryPerformance
	}
	return driver.CategoryGeneral
}
