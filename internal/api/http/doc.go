// Package http is the REST request layer over the browser controller.
//
// Endpoints (GET, or POST with a form or JSON body):
//
//	/api/start?browser=chrome&url=https://example.com
//	/api/stop?browser=chrome
//	/api/geturl?browser=chrome
//	/api/cleanup?browser=chrome
//	/api/status
//
// The browser parameter is validated here; the controller only ever sees a
// supported kind. Failures are answered as {"error": ..., "code": ...} with
// a status derived from the controller error code.
package http
