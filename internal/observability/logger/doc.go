// Package logger construye el *zap.Logger operativo del proceso: lo usan la
// CLI y el admin server para sus propios mensajes, y nslog para reportar
// degradaciones de render y fallas de escritura.
//
//   - "dev": consola con niveles en color, hora corta.
//   - "prod": JSON con timestamps ISO8601.
//
// El nivel se parsea estricto con nslog.ParseLevel: un nombre desconocido es error.
package logger
