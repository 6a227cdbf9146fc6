// Package i18n holds the UI string tables. The original user base is
// bilingual, so every label ships in English and Chinese.
package i18n

// Lang selects the active string table.
type Lang int

const (
	English Lang = iota
	Chinese
)

var active = English

// SetLang switches the active language.
func SetLang(l Lang) {
	active = l
}

// Current returns the active language.
func Current() Lang {
	return active
}

// Toggle flips between English and Chinese and returns the new value.
func Toggle() Lang {
	if active == English {
		active = Chinese
	} else {
		active = English
	}
	return active
}

// T looks up a key in the active table, falling back to English, then
// to the key itself.
func T(key string) string {
	if active == Chinese {
		if s, ok := zh[key]; ok {
			return s
		}
	}
	if s, ok := en[key]; ok {
		return s
	}
	return key
}

var en = map[string]string{
	"app.title":          "Nano Measure",
	"menu.file":          "File",
	"menu.open":          "Open Image...",
	"menu.export":        "Export CSV...",
	"menu.quit":          "Quit",
	"menu.edit":          "Edit",
	"menu.undo":          "Undo Measurement",
	"menu.clear":         "Clear Measurements",
	"menu.view":          "View",
	"menu.histogram":     "Show Histogram",
	"menu.language":      "中文",
	"mode.pan":           "Pan",
	"mode.calibrate":     "Set Scale",
	"mode.measure":       "Measure",
	"mode.group":         "Draw Group",
	"mode.detect":        "Pick Particle Color",
	"mode.scalebar":      "Read Scale Bar",
	"scale.title":        "Scale Calibration",
	"scale.pixels":       "Pixel distance",
	"scale.length":       "Physical length",
	"scale.unit":         "Unit",
	"scale.none":         "Not calibrated",
	"scale.factor":       "Scale",
	"scale.prompt":       "Click both ends of the scale bar",
	"measure.prompt":     "Click two edge points of a particle",
	"measure.count":      "Measurements",
	"measure.mean":       "Mean",
	"measure.std":        "Std Dev",
	"group.title":        "Group Name",
	"group.prompt":       "Drag a rectangle around the particles",
	"group.default":      "Group",
	"group.delete":       "Delete Group",
	"hist.title":         "Size Distribution",
	"hist.xlabel":        "Diameter",
	"hist.count":         "Count",
	"hist.nofit":         "Gaussian fit unavailable",
	"export.done":        "Export complete",
	"error.uncalibrated": "Set the scale before measuring",
	"error.nothing_undo": "Nothing to undo",
	"error.load":         "Could not load image",
	"error.no_legend":    "Could not read the scale bar legend",
}

var zh = map[string]string{
	"app.title":          "纳米测量",
	"menu.file":          "文件",
	"menu.open":          "打开图像...",
	"menu.export":        "导出 CSV...",
	"menu.quit":          "退出",
	"menu.edit":          "编辑",
	"menu.undo":          "撤销测量",
	"menu.clear":         "清除测量",
	"menu.view":          "视图",
	"menu.histogram":     "显示直方图",
	"menu.language":      "English",
	"mode.pan":           "平移",
	"mode.calibrate":     "设置比例尺",
	"mode.measure":       "测量",
	"mode.group":         "绘制分组",
	"mode.detect":        "拾取颗粒颜色",
	"mode.scalebar":      "读取比例尺",
	"scale.title":        "比例尺标定",
	"scale.pixels":       "像素距离",
	"scale.length":       "实际长度",
	"scale.unit":         "单位",
	"scale.none":         "未标定",
	"scale.factor":       "比例",
	"scale.prompt":       "点击比例尺的两端",
	"measure.prompt":     "点击颗粒边缘的两个点",
	"measure.count":      "测量数",
	"measure.mean":       "平均值",
	"measure.std":        "标准差",
	"group.title":        "分组名称",
	"group.prompt":       "拖动矩形框选颗粒",
	"group.default":      "分组",
	"group.delete":       "删除分组",
	"hist.title":         "粒径分布",
	"hist.xlabel":        "直径",
	"hist.count":         "数量",
	"hist.nofit":         "高斯拟合不可用",
	"export.done":        "导出完成",
	"error.uncalibrated": "测量前请先设置比例尺",
	"error.nothing_undo": "没有可撤销的测量",
	"error.load":         "无法加载图像",
	"error.no_legend":    "无法识别比例尺标注",
}
