// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// binpackNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	binpackNamespace = "binpack"

	// 以下为当前使用的通用标签名。
	opLabelName     = "op"
	statusLabelName = "status"
	codeLabelName   = "code"
	resultLabelName = "result"

	// op 标签取值。
	PackLabel   = "pack"
	UnpackLabel = "unpack"

	// status 标签取值。
	SuccessLabel = "success"
	WarningLabel = "warning"
	FailLabel    = "fail"

	// result 标签取值。
	HitLabel  = "hit"
	MissLabel = "miss"
)

var (
	// sizeBuckets 为单次编解码数据大小的桶划分，单位为字节。
	sizeBuckets = prometheus.ExponentialBuckets(1, 4, 14)

	metricRegisterer prometheus.Registerer
	registerOnce     sync.Once
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标，重复调用只生效一次。
func Register(r prometheus.Registerer) {
	registerOnce.Do(func() {
		r.MustRegister(CodecOperations)
		r.MustRegister(CodecBytes)
		r.MustRegister(CodecWarnings)
		r.MustRegister(ProgramCacheRequests)
		r.MustRegister(ProgramCacheEntries)
		metricRegisterer = r
	})
}
