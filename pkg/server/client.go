package server

import "strings"

// clientScript returns the inline script that connects a page to its live
// session. selector names the element render messages replace.
func clientScript(selector string) (string, error) {
	cfg, err := json.Marshal(map[string]string{
		"ws": WebSocketPath,
		"el": selector,
	})
	if err != nil {
		return "", err
	}
	// Keep a "</script>" inside the selector from closing the tag.
	safe := strings.ReplaceAll(string(cfg), "</", `<\/`)
	return strings.Replace(clientScriptTemplate, "__VBIND_CONFIG__", safe, 1), nil
}

const clientScriptTemplate = `
<script>
(function() {
    'use strict';

    var cfg = __VBIND_CONFIG__;
    var events = ['click', 'input', 'change', 'submit', 'keyup', 'keydown'];
    var ws = null;
    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function root() {
        return (cfg.el && document.querySelector(cfg.el)) || document.body;
    }

    function render(html) {
        var el = root();
        var active = document.activeElement;
        var hid = active && active.getAttribute && active.getAttribute('data-hid');
        var caret = active && typeof active.selectionStart === 'number' ? active.selectionStart : null;

        if (cfg.el && el !== document.body) {
            el.outerHTML = html;
        } else {
            el.innerHTML = html;
        }

        if (hid) {
            var next = document.querySelector('[data-hid="' + hid + '"]');
            if (next) {
                next.focus();
                if (caret !== null && typeof next.setSelectionRange === 'function') {
                    next.setSelectionRange(caret, caret);
                }
            }
        }
    }

    function showError(msg) {
        console.error('[vbind]', msg);
    }

    function send(msg) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(msg));
        }
    }

    events.forEach(function(type) {
        document.addEventListener(type, function(e) {
            var target = e.target && e.target.closest && e.target.closest('[data-on-' + type + ']');
            if (!target) {
                return;
            }
            if (type === 'submit') {
                e.preventDefault();
            }
            send({
                type: 'event',
                hid: target.getAttribute('data-hid'),
                event: type,
                value: target.value === undefined ? '' : String(target.value)
            });
        }, true);
    });

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + cfg.ws);

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            switch (msg.type) {
                case 'render':
                    render(msg.html);
                    break;
                case 'error':
                    showError(msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    // Exposed for the browser console: vbind.set('count', 5)
    window.vbind = {
        set: function(path, value) {
            send({type: 'set', path: path, value: value});
        }
    };

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
