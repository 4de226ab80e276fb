//go:build mobile

// embed.go - 移动端配置数据嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译，构建前需要复制 data/ 到此目录。
package mobile

import "embed"

//go:embed data/heroes.yaml data/beans.yaml data/skills.yaml data/items.yaml data/levels
var dataFS embed.FS
