// 版权所有 2024 NodeFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖宿主 HTTP、
上游 API 与模型缓存三个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
工厂注册到调用方提供的 Registry。所有指标按 namespace 隔离，
支持多维度 label 分组，便于 Grafana 等工具进行可视化与告警。

# 核心类型

  - Collector：指标收集器，持有 Counter 与 Histogram 向量指标，
    同时实现 client.Recorder 与 modelcache.Recorder 接口。

# 主要能力

  - 宿主 HTTP 指标：请求总数与耗时，按 method/path/status 分组，
    状态码归类为 2xx/3xx/4xx/5xx。
  - 上游 API 指标：请求总数、耗时与重试计数，按 endpoint 分组。
  - 缓存指标：命中、未命中与旧快照兜底计数，按 profile 分组。
*/
package metrics
