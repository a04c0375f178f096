package cli

var RenderHeatmap = renderHeatmap

var IndexConfig = indexConfig

var RunServer = runServer
