// Copyright (c) NodeFlow Authors.
// Licensed under the MIT License.

/*
Package main 提供 NodeFlow 服务端程序入口。

# 概述

cmd/nodeflow 是 NodeFlow 插件后端的可执行入口，托管节点编辑器宿主
依赖的 HTTP 路由（模型列表、连接测试、能力过滤、缓存清理），并在
独立端口暴露 Prometheus 指标。程序支持 YAML 配置文件加载、结构化
日志（zap）以及可选的 OpenTelemetry 遥测。

# 核心类型

  - Server           — 主服务器，管理宿主 HTTP、Metrics 双端口及优雅关闭
  - Middleware        — HTTP 中间件函数签名 func(http.Handler) http.Handler
  - responseWriter    — 包装 http.ResponseWriter 以捕获状态码

# 主要能力

  - 子命令：serve（启动服务）、version、health
  - 中间件链：Recovery、SecurityHeaders、RequestLogger、CORS、
    MetricsMiddleware、OTelTracing
  - 缓存后端：file（单 JSON 快照文件）或 redis，由配置选择
  - Metrics 服务器：独立端口暴露 /metrics（Prometheus）
  - 优雅关闭：信号监听 → 关闭宿主 HTTP → 关闭 Metrics → 刷新遥测
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
